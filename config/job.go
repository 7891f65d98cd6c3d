package config

import "github.com/spf13/viper"

// Assign policies.
const (
	AssignApplicantsOnly = "applicants_only"
	AssignAny            = "any"
)

// Job job lifecycle config struct
type Job struct {
	MaxImages    int
	MaxImageSize int64
	DefaultLimit int
	MaxLimit     int
	AssignPolicy string
}

func getJobConfig(v *viper.Viper) *Job {
	policy := getStringOrDefault(v, "job.assign_policy", AssignApplicantsOnly)
	if policy != AssignAny {
		policy = AssignApplicantsOnly
	}
	return &Job{
		MaxImages:    getIntOrDefault(v, "job.max_images", 6),
		MaxImageSize: int64(getIntOrDefault(v, "job.max_image_size", 5<<20)),
		DefaultLimit: getIntOrDefault(v, "job.default_limit", 20),
		MaxLimit:     getIntOrDefault(v, "job.max_limit", 100),
		AssignPolicy: policy,
	}
}
