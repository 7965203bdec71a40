package main

import (
	"net/http"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func main() {
	if err := godotenv.Load(); err == nil {
		Logger.Infof("loaded environment from .env")
	}

	listenAddr := StringEnv("BENCH_LISTEN_ADDR", ":8080")
	datasetURL := StringEnv("BENCH_DATASET_URL", "http://localhost:8081/records")
	dataPath := StringEnv("BENCH_DATA_PATH", "data")
	fetchTimeout := IntEnv("BENCH_FETCH_TIMEOUT_SECONDS", 10)
	libsqlURL := StringEnv("BENCH_LIBSQL_URL", "")

	info := HostStat()
	Logger.Infof("host stat: %+v", info)

	if err := os.MkdirAll(dataPath, 0770); err != nil {
		Logger.Fatalf("failed to create data directory %v: %v", dataPath, err)
	}

	// The batch adapter runs against a local sqlite file unless a remote
	// libsql database is configured.
	batchDriver, batchDSN := "sqlite3", path.Join(dataPath, "records-batch.db")
	if libsqlURL != "" {
		batchDriver, batchDSN = "libsql", libsqlURL
	}
	batch, err := OpenSQLiteBatch(batchDriver, batchDSN)
	if err != nil {
		Logger.Fatalf("failed to open %v database: %v", batchDriver, err)
	}
	builder, err := OpenGoqu("sqlite3", path.Join(dataPath, "records-goqu.db"))
	if err != nil {
		Logger.Fatalf("failed to open goqu database: %v", err)
	}
	objects, err := OpenBadger(path.Join(dataPath, "badger"))
	if err != nil {
		Logger.Fatalf("failed to open badger database: %v", err)
	}
	embedded, err := OpenBolt(path.Join(dataPath, "records.bolt"))
	if err != nil {
		Logger.Fatalf("failed to open bolt database: %v", err)
	}

	source := NewDatasetHTTP(datasetURL, time.Duration(fetchTimeout)*time.Second)
	system := NewSystem(source, batch, builder, objects, embedded)
	defer system.Close()

	server := NewServer(system)
	Logger.Infof("listening on %v, dataset at %v", listenAddr, datasetURL)
	if err := http.ListenAndServe(listenAddr, server.Handler()); err != nil {
		Logger.Fatalf("server failed: %v", err)
	}
}
