package generations

import "errors"

var ErrNotFound = errors.New("not found")
