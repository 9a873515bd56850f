package mail

import "errors"

var (
	ErrMissingArgument  = errors.New("mail: missing processor argument")
	ErrTemplateNotFound = errors.New("mail: template not found")
)
