package dto

import (
	"encoding/json"
	"strings"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NumberText número tal como llegó del cliente (JSON number o string). La validación
// numérica la hace el caso de uso, así "abc" termina en INVALID_QUANTITY y no en INVALID_BODY.
type NumberText string

// UnmarshalJSON acepta 12.5, "12.5" y "12,5".
func (n *NumberText) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*n = NumberText(v)
		return nil
	}
	*n = NumberText(s)
	return nil
}
