package handlers

import "github.com/gorilla/schema"

// CredentialsDTO is the shared shape of a register or login request
// body, decoded from url-encoded form values.
type CredentialsDTO struct {
	Username string `schema:"username,required"`
	Password string `schema:"password,required"`
}

func parseCredentialsDTO(src map[string][]string) (CredentialsDTO, error) {
	var dto CredentialsDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}
