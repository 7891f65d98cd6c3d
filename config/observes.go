package config

import (
	"github.com/spf13/viper"
)

// Observes observability config struct
type Observes struct {
	Sentry *Sentry
	Tracer *Tracer
}

// Sentry config struct
type Sentry struct {
	Dsn         string `json:"dsn" yaml:"dsn"`
	Environment string `json:"environment" yaml:"environment"`
	Release     string `json:"release" yaml:"release"`
}

// Tracer config struct for OpenTelemetry
type Tracer struct {
	Endpoint     string  `json:"endpoint" yaml:"endpoint"` // OTLP gRPC endpoint
	SamplingRate float64 `json:"sampling_rate" yaml:"sampling_rate"`
}

func getObservesConfig(v *viper.Viper) *Observes {
	return &Observes{
		Sentry: &Sentry{
			Dsn:         v.GetString("observes.sentry.dsn"),
			Environment: v.GetString("observes.sentry.environment"),
			Release:     v.GetString("observes.sentry.release"),
		},
		Tracer: &Tracer{
			Endpoint:     v.GetString("observes.tracer.endpoint"),
			SamplingRate: getFloat64OrDefault(v, "observes.tracer.sampling_rate", 1.0),
		},
	}
}
