package config

import (
	"time"

	"github.com/spf13/viper"
)

// envAliases maps config keys to the flat variable names
// services built from this template are deployed with.
var envAliases = map[string]string{ //nolint:gochecknoglobals
	"db.url":                       "DATABASE_URL",
	"devmode":                      "DEBUG",
	"app.secretkey":                "SECRET_KEY",
	"jwt.accesstokenexpireminutes": "ACCESS_TOKEN_EXPIRE_MINUTES",
	"jwt.algorithm":                "ALGORITHM",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("devmode", false)

	v.SetDefault("app.name", "My API")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.description", "REST API built with Go, MySQL and gorm")
	v.SetDefault("app.secretkey", "change-me-in-production")

	v.SetDefault("db.url", "")
	v.SetDefault("db.gormengine", EngineMySQL)
	v.SetDefault("db.extras", "charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "user")
	v.SetDefault("db.password", "password")
	v.SetDefault("db.name", "dbname")
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.maxopenconns", 30)
	v.SetDefault("db.connmaxlifetime", 3600)
	v.SetDefault("db.preping", true)
	v.SetDefault("db.automigrate", false)

	v.SetDefault("jwt.accesstokenexpireminutes", 30)
	v.SetDefault("jwt.algorithm", "HS256")

	v.SetDefault("webserver.disablerecover", false)
	v.SetDefault("webserver.port", 8000)
	v.SetDefault("webserver.shutdowntime", defaultShutDownTime)
	v.SetDefault("webserver.url", "http://localhost:8000")
	v.SetDefault("webserver.protectwrites", false)
	v.SetDefault("webserver.readbuffersize", 8192)

	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.logenv", "")
	v.SetDefault("log.enableaccesslogtoconsole", true)
	v.SetDefault("log.reportcaller", false)
	v.SetDefault("log.disablecheckalive", true)
	v.SetDefault("log.appname", "apitemplate")
	v.SetDefault("log.servicename", "api")
	v.SetDefault("log.console.enabled", true)
	v.SetDefault("log.console.useconsolewriter", false)
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "./logs")

	for _, name := range []string{"access", "error", "info", "trace", "warn"} {
		v.SetDefault("log.file."+name+".name", name+".log")
		v.SetDefault("log.file."+name+".maxsize", 100)   //nolint:mnd // megabytes
		v.SetDefault("log.file."+name+".maxbackups", 3) //nolint:mnd
		v.SetDefault("log.file."+name+".maxage", 28)    //nolint:mnd // days
	}

	v.SetDefault("log.sql.enabled", false)
	v.SetDefault("log.sql.slowthreshold", 200*time.Millisecond) //nolint:mnd
}
