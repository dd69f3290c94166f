package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	log "github.com/sirupsen/logrus"

	"taskmate/model/model"
)

const DEVELOPMENT = "development"

const (
	StoreTypePostgres = "postgres"
	StoreTypeMemory   = "memory"
)

const defaultPollTimeoutInSecs = 60

type DBConf struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type Configuration struct {
	AppName string `json:"app_name"`
	Env     string `json:"env"`
	Port    int    `json:"port"`
	DBInfo  DBConf `json:"db"`
	// StoreType selects the store implementation. Defaults to postgres.
	StoreType string `json:"store_type"`
	// PollTimeoutInSecs bounds every remote call made by connectors.
	PollTimeoutInSecs int `json:"poll_timeout_in_secs"`
}

type Services struct {
	Db *gorm.DB
}

var configuration *Configuration = nil
var services *Services = nil
var initiated bool = false

func initLogging() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	if IsDevelopment() {
		log.SetLevel(log.DebugLevel)
	}
}

func initServices() error {
	if configuration.StoreType == StoreTypeMemory {
		// In-memory store runs without a database connection.
		services = &Services{}
		return nil
	}

	db, err := gorm.Open("postgres", fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=disable",
		configuration.DBInfo.Host,
		configuration.DBInfo.Port,
		configuration.DBInfo.User,
		configuration.DBInfo.Name,
		configuration.DBInfo.Password))
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Error("Failed Db Initialization")
		return err
	}

	// Connection pooling and logging.
	db.DB().SetMaxIdleConns(10)
	db.DB().SetMaxOpenConns(100)
	db.LogMode(IsDevelopment())

	// Unique indexes on (owner, source_name) and
	// (source_account_id, external_id) come from the entity tags.
	err = db.AutoMigrate(&model.SourceAccount{}, &model.AssignmentMapping{}).Error
	if err != nil {
		log.WithError(err).Error("Failed schema auto migration")
		return err
	}
	log.Info("Db Service initialized")

	services = &Services{Db: db}
	return nil
}

func Init(config *Configuration) error {
	if initiated {
		return fmt.Errorf("config already initialized")
	}

	configuration = config
	if configuration.StoreType == "" {
		configuration.StoreType = StoreTypePostgres
	}
	if configuration.PollTimeoutInSecs <= 0 {
		configuration.PollTimeoutInSecs = defaultPollTimeoutInSecs
	}

	initLogging()

	if err := initServices(); err != nil {
		return err
	}

	initiated = true
	return nil
}

func GetConfig() *Configuration {
	return configuration
}

func GetServices() *Services {
	return services
}

func IsDevelopment() bool {
	return strings.Compare(configuration.Env, DEVELOPMENT) == 0
}

// GetPollTimeout is the upper bound for one remote call to an
// external platform. A timeout surfaces as a network class failure.
func GetPollTimeout() time.Duration {
	return time.Duration(configuration.PollTimeoutInSecs) * time.Second
}
