package main

import (
	"flag"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	C "taskmate/config"
	H "taskmate/handler"
	"taskmate/integration"
	"taskmate/integration/canvas"
	"taskmate/model/model"
)

// ./app --env=development --port=8080 --db_host=localhost --db_port=5432 --db_user=taskmate --db_name=taskmate --db_pass=taskmate
func main() {
	env := flag.String("env", "development", "")
	port := flag.Int("port", 8080, "")

	dbHost := flag.String("db_host", "localhost", "")
	dbPort := flag.Int("db_port", 5432, "")
	dbUser := flag.String("db_user", "taskmate", "")
	dbName := flag.String("db_name", "taskmate", "")
	dbPass := flag.String("db_pass", "taskmate", "")

	storeType := flag.String("store_type", C.StoreTypePostgres, "postgres or memory")
	pollTimeout := flag.Int("poll_timeout_in_secs", 60, "Timeout for external platform calls")
	flag.Parse()

	config := &C.Configuration{
		AppName: "taskmate_sync",
		Env:     *env,
		Port:    *port,
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

	// Initialize configs and connections.
	if err := C.Init(config); err != nil {
		log.WithError(err).Fatal("Failed to initialize.")
		return
	}

	// Platform connectors, one per source type.
	integration.RegisterConnector(model.SourceTypeCanvas, canvas.NewConnector())

	if !C.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	H.InitRoutes(r)
	r.Run(":" + strconv.Itoa(C.GetConfig().Port))
}
