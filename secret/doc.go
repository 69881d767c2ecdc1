// Package secret resolves credentials referenced from configuration.
//
// Configuration values may embed environment variables (${VAR}, expanded
// strictly by ExpandEnvStrict) and secret references of the form
//
//	secretref:<provider>:<ref>
//
// either as the whole value or inline:
//
//	storycache.auth.signing_key: secretref:file:/run/secrets/jwt_key
//	storycache.generation.api_key: secretref:env:OPENAI_API_KEY
//
// The env and file providers cover local development and mounted
// container secrets.
package secret
