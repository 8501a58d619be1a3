package service

import (
	util "github.com/spec-kit/intake-service/pkg/util"
)

// toCode extracts the DomainError code for assertions.
func toCode(err error) string {
	if err == nil {
		return ""
	}
	return util.ToDomainError(err).Code
}
