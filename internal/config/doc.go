// Package config loads the recorder configuration from YAML.
//
// ${VAR} references are expanded from the environment before parsing, so
// credentials can stay out of the file:
//
//	api:
//	  email: ${MYFXBOOK_EMAIL}
//	  password: ${MYFXBOOK_PASSWORD}
package config
