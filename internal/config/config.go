package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Frontend Frontend `koanf:"frontend"`
	Database Database `koanf:"db"`
	Calendar Calendar `koanf:"calendar"`
	Users    []User   `koanf:"users"`
	WebPush  WebPush  `koanf:"webpush"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

type Database struct {
	Path string `koanf:"path"`
}

// Calendar holds the timeline geometry of the day view.
type Calendar struct {
	DayStartHour    int `koanf:"daystarthour"`
	SlotUnitMinutes int `koanf:"slotunitminutes"`
	SlotPixelHeight int `koanf:"slotpixelheight"`
	VisibleHours    int `koanf:"visiblehours"`
}

// User is one entry of the fixed two-person roster.
type User struct {
	Id          int    `koanf:"id"`
	Username    string `koanf:"username"`
	DisplayName string `koanf:"displayname"`
}

type WebPush struct {
	PublicKey       string `koanf:"publickey"`
	PrivateKey      string `koanf:"privatekey"`
	SubscriberEmail string `koanf:"subscriberemail"`
	TTL             int    `koanf:"ttl"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Port: 8181,
		Frontend: Frontend{
			Enabled: true,
		},
		Database: Database{
			Path: "evecal.db",
		},
		Calendar: Calendar{
			DayStartHour:    6,
			SlotUnitMinutes: 60,
			SlotPixelHeight: 90,
			VisibleHours:    18,
		},
		WebPush: WebPush{
			TTL: 30,
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "EVECAL_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "EVECAL_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
