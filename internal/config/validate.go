package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/vango-dev/pathway/internal/errors"
	"github.com/vango-dev/pathway/pkg/routepath"
)

var validate = validator.New()

// Validate checks the configuration and canonicalizes the locale tag.
// The first problem found is returned as a C122 error.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return errors.New("C122").WithDetail(validationMessage(verrs[0]))
		}
		return errors.New("C122").Wrap(err)
	}

	if c.Locale != "" {
		tag, err := language.Parse(c.Locale)
		if err != nil {
			return errors.New("C122").
				WithDetailf("locale %q is not a BCP 47 tag", c.Locale).
				WithSuggestion("Use a tag such as \"en\" or \"pt-BR\"")
		}
		c.Locale = tag.String()
	}

	names := make(map[string]int, len(c.Routes))
	for i, rt := range c.Routes {
		if _, err := routepath.Compile(rt.Path); err != nil {
			return errors.New("C122").WithDetailf("routes[%d]: %v", i, err)
		}
		if rt.Name == "" {
			continue
		}
		if j, dup := names[rt.Name]; dup {
			return errors.New("C122").
				WithDetailf("routes[%d] and routes[%d] are both named %q", j, i, rt.Name)
		}
		names[rt.Name] = i
	}

	return nil
}

func validationMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
