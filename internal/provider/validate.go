package provider

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/imamik/vmprov/internal/fault"
	"github.com/imamik/vmprov/internal/vmconf"
)

// ValidateTag checks a header tag at its 1-based ordinal against the
// provider's pattern: prefix, exact length, numeric suffix equal to the
// ordinal, ordinal within MaxDeclarations.
func ValidateTag(s Spec, tag string, ordinal int) error {
	reject := func(reason string) error {
		return &fault.Error{
			Kind: fault.KindInvalidTagFormat,
			Msg:  fmt.Sprintf("invalid %s tag format: %s", s.DisplayName, reason),
			Tag:  tag,
		}
	}

	if ordinal > s.MaxDeclarations {
		return reject(fmt.Sprintf("at most %d declarations are allowed", s.MaxDeclarations))
	}

	expected := fmt.Sprintf("%s%0*d", s.TagPrefix, s.TagDigits, ordinal)
	if !strings.HasPrefix(tag, s.TagPrefix) || len(tag) != s.TagLength() {
		return reject(fmt.Sprintf("expected %s", expected))
	}

	suffix := tag[len(s.TagPrefix):]
	if !isASCIIDigits(suffix) {
		return reject(fmt.Sprintf("expected %s", expected))
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n != ordinal {
		return reject(fmt.Sprintf("expected %s", expected))
	}

	return nil
}

// RequireFields checks that every required key is present.
func RequireFields(s Spec, d *vmconf.Declaration) error {
	for _, key := range s.Required {
		if !d.Has(key) {
			return &fault.Error{
				Kind:  fault.KindMissingRequiredField,
				Msg:   "insufficient information provided",
				Tag:   d.Tag,
				Field: key,
			}
		}
	}
	return nil
}

// Validate runs the pure checks for a declaration: required fields, then
// field formats. It never touches the provider.
func Validate(p Provider, d *vmconf.Declaration) error {
	if err := RequireFields(p.Spec(), d); err != nil {
		return err
	}
	return p.CheckFields(d)
}

func invalidField(d *vmconf.Declaration, field, msg string) error {
	return &fault.Error{
		Kind:  fault.KindInvalidFieldFormat,
		Msg:   msg,
		Tag:   d.Tag,
		Field: field,
	}
}

func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
