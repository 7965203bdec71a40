package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(source DatasetSource, adapters ...BackendAdapter) *httptest.Server {
	return httptest.NewServer(NewServer(NewSystem(source, adapters...)).Handler())
}

func TestServerRunAndResults(t *testing.T) {
	adapter := &stubAdapter{name: "stub"}
	server := newTestServer(&stubSource{records: testRecords}, adapter)
	defer server.Close()

	resp, err := http.Post(server.URL+"/run/stub/populate", "", nil)
	require.Nil(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result TimingResult
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(t, "stub", result.Backend)
	require.Equal(t, OpPopulate, result.Operation)
	require.GreaterOrEqual(t, result.ElapsedMillis, int64(0))
	require.Equal(t, 1, adapter.inserts)

	resp, err = http.Get(server.URL + "/results")
	require.Nil(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results []TimingResult
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&results))
	require.Equal(t, []TimingResult{result}, results)
}

func TestServerUnknownBackendAndOperation(t *testing.T) {
	server := newTestServer(&stubSource{records: testRecords}, &stubAdapter{name: "stub"})
	defer server.Close()

	resp, err := http.Post(server.URL+"/run/nope/populate", "", nil)
	require.Nil(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(server.URL+"/run/stub/vacuum", "", nil)
	require.Nil(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServerFetchFailureIsBadGateway(t *testing.T) {
	adapter := &stubAdapter{name: "stub"}
	source := &stubSource{err: &DatasetFetchError{URL: "http://example.org", Cause: errors.New("timeout")}}
	server := newTestServer(source, adapter)
	defer server.Close()

	resp, err := http.Post(server.URL+"/run/stub/update", "", nil)
	require.Nil(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, 0, adapter.updates)

	resp, err = http.Get(server.URL + "/results")
	require.Nil(t, err)
	defer resp.Body.Close()
	var results []TimingResult
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&results))
	require.Empty(t, results)
}

func TestServerBackendFailureIsBadGateway(t *testing.T) {
	adapter := &stubAdapter{name: "stub", err: &StorageError{Backend: "stub", Cause: errors.New("disk full")}}
	server := newTestServer(&stubSource{records: testRecords}, adapter)
	defer server.Close()

	resp, err := http.Post(server.URL+"/run/stub/populate", "", nil)
	require.Nil(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestServerInfo(t *testing.T) {
	server := newTestServer(&stubSource{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/info")
	require.Nil(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info SysInfo
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&info))
}
