package query

import (
	"net/http"

	json "github.com/goccy/go-json"
)

// Response is either a success, optionally carrying a row matrix, or an error
// carrying a message. Data is nil for a success without rows.
type Response struct {
	Data    [][]string `json:"data"`
	Message string     `json:"message"`
	Status  int        `json:"status"`
	// don't manually set this. it comes from the client
	ReqId int `json:"req_id,omitempty"`
}

func NewErrorResponse(status int, err string) Response {
	return Response{
		Message: err,
		Status:  status,
	}
}

func NewResponse(status int, message string, data [][]string) Response {
	return Response{
		Data:    data,
		Message: message,
		Status:  status,
	}
}

func ErrorToResponse(err error) Response {
	query_error := AsQueryError(err)
	return NewErrorResponse(query_error.Status(), query_error.Error())
}

func (r Response) IsError() bool { return r.Status >= http.StatusBadRequest }

// HasRows distinguishes Success(Some(rows)) from Success(None).
func (r Response) HasRows() bool { return !r.IsError() && r.Data != nil }

func (r Response) Marshal() []byte {
	data, err := json.Marshal(r)
	if err != nil {
		data, _ = json.Marshal(NewErrorResponse(http.StatusInternalServerError, err.Error()))
	}
	return data
}
