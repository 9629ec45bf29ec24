// Package entity defines the response shapes used by the web layer.
package entity

// Token carries an issued bearer token back to the client.
type Token struct {
	JwtToken string `json:"jwt_token"`
}

// Error is the body of a failed request caused by bad input, bad
// credentials, or a denied permission.
type Error struct {
	Error string `json:"error"`
}

// SchemaError is the body of a request whose payload could not be parsed
// at all (absent or malformed JSON).
type SchemaError struct {
	Schema string `json:"_schema"`
}
