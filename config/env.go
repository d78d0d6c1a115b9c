package config

import "os"

// Environment selects how strictly configuration is validated and which
// logger encoding the process gets.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// GetEnvironment resolves the runtime environment. The CI flag wins over
// ENV so pipeline runs never inherit a developer's shell setting; staging
// and production deploys set ENV explicitly.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	switch os.Getenv("ENV") {
	case "production":
		return Production
	case "staging":
		return Staging
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction reports whether this process serves production traffic.
func IsProduction() bool {
	return GetEnvironment() == Production
}

// RequiresSecrets reports whether the environment must carry real signing
// secrets and provider keys. Staging talks to live LLM and embedding
// providers, so it is held to the production bar; everything else can run
// offline.
func RequiresSecrets() bool {
	switch GetEnvironment() {
	case Production, Staging:
		return true
	default:
		return false
	}
}
