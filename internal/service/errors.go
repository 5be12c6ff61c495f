package service

// ValidationError reports invalid client input. Handlers map it to a 400.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
