// Package config provides the apibuilder CLI's own user configuration.
//
// This is distinct from the per-repository project config handled by
// package appconfig. The global file lives at ~/.apibuilder/config, with
// $XDG_CONFIG_HOME/apibuilder/config as a secondary location:
//
//	default_profile: work
//	profiles:
//	  work:
//	    api_uri: https://api.apibuilder.example.com
//	    token: secret
//
// Environment variables override the file:
//
//	APIBUILDER_PROFILE   selects the active profile
//	APIBUILDER_API_URI   replaces the profile's api_uri
//	APIBUILDER_TOKEN     replaces the profile's token
//
// A missing file is not an error; defaults point at the public API.
package config
