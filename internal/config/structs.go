package config

import (
	"time"

	"github.com/studyhive/studyhive/internal/logger"
)

// Token settings for issued bearer credentials.
type Token struct {
	// Secret signs issued JWTs. Required.
	Secret string
	// ExpiryTime is how long an issued token stays valid.
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool     // use clean path middleware to allow multi slash requests
	DisableRecover bool     // disable recover middleware
	Domain         string   // domain name for the webserver
	Port           int      // listening port for the webserver
	ShutDownTime   int      // wait time for shutdown in seconds
	RequestTimeout int      // per-request storage timeout in seconds
	URL            string   // base url for the webserver
	CORSOrigins    []string // allowed cross-origin callers (the web client)
	Token          Token    // bearer token settings
}
