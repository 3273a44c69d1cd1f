package middleware

// keys of values stored in context
type MiddleWareContextKey string

const (
	OFFICE_ID = MiddleWareContextKey("office_id") // The context value is a string representing the office acting in the request.
	ADMIN     = MiddleWareContextKey("admin")     // The context value is a string naming the administrator of the manager API.
)
