package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDatasetHTTPFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"a","value":"x"},{"id":2,"name":"b","value":"y"}]`))
	}))
	defer server.Close()

	source := NewDatasetHTTP(server.URL, time.Second)
	records, err := source.Fetch(context.Background())
	require.Nil(t, err)
	require.Equal(t, testRecords, records)
}

func TestDatasetHTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewDatasetHTTP(server.URL, time.Second)
	_, err := source.Fetch(context.Background())
	var fetchErr *DatasetFetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Contains(t, fetchErr.Error(), "unexpected status code 500")
}

func TestDatasetHTTPMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer server.Close()

	source := NewDatasetHTTP(server.URL, time.Second)
	_, err := source.Fetch(context.Background())
	var fetchErr *DatasetFetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestDatasetHTTPUnreachable(t *testing.T) {
	source := NewDatasetHTTP("http://127.0.0.1:1/records", 100*time.Millisecond)
	_, err := source.Fetch(context.Background())
	var fetchErr *DatasetFetchError
	require.ErrorAs(t, err, &fetchErr)
}
