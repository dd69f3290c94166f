package main

import (
	"flag"

	log "github.com/sirupsen/logrus"

	C "taskmate/config"
	"taskmate/integration"
	"taskmate/integration/canvas"
	"taskmate/model/model"
	"taskmate/task/assignment_sync"
)

// One poll and classify cycle across all connected source accounts.
// ./run_assignment_sync --env=development --db_host=localhost --db_port=5432 --db_user=taskmate --db_name=taskmate --db_pass=taskmate --num_account_routines=4
func main() {
	envFlag := flag.String("env", C.DEVELOPMENT, "Environment. Could be development|staging|production.")

	dbHost := flag.String("db_host", "localhost", "")
	dbPort := flag.Int("db_port", 5432, "")
	dbUser := flag.String("db_user", "taskmate", "")
	dbName := flag.String("db_name", "taskmate", "")
	dbPass := flag.String("db_pass", "taskmate", "")

	storeType := flag.String("store_type", C.StoreTypePostgres, "postgres or memory")
	pollTimeout := flag.Int("poll_timeout_in_secs", 60, "Timeout for external platform calls")
	numAccountRoutines := flag.Int("num_account_routines", 4, "No of source accounts synced in parallel")
	flag.Parse()

	config := &C.Configuration{
		AppName: "assignment_sync_job",
		Env:     *envFlag,
		DBInfo: C.DBConf{
			Host:     *dbHost,
			Port:     *dbPort,
			User:     *dbUser,
			Name:     *dbName,
			Password: *dbPass,
		},
		StoreType:         *storeType,
		PollTimeoutInSecs: *pollTimeout,
	}

	if err := C.Init(config); err != nil {
		log.WithError(err).Fatal("Failed to initialize.")
	}

	integration.RegisterConnector(model.SourceTypeCanvas, canvas.NewConnector())

	status, hasFailure := assignment_sync.RunSyncAll(*numAccountRoutines)
	if hasFailure {
		log.WithField("status", status).Error("Assignment sync completed with failures.")
		return
	}

	log.WithField("status", status).Info("Assignment sync completed.")
}
