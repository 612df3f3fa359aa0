package userservice

import (
	"regexp"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	UsernameRX = regexp.MustCompile("^[a-zA-Z0-9]+$")
)

func validateUsername(v *common.Validator, username string) {
	v.Check(username != "", "username", "must be provided")
	v.Check(v.CheckStringLength(username, 3, 25), "username", "must be between 3 and 25 characters long")
	v.Check(UsernameRX.MatchString(username), "username", "must only contain letters and numbers")
}

func validateName(v *common.Validator, name string) {
	v.Check(v.CheckMaxLength(name, 100), "name", "must not be more than 100 characters long")
}

func validatePassword(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(v.CheckStringLength(password, 3, 72), "password", "must be between 3 and 72 characters long")
}
