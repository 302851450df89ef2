package config

import (
	"os"
	"strconv"
	"time"

	"github.com/drone/envsubst"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

var getEnv = os.Getenv

func expand(raw string) (string, error) {
	expanded, err := envsubst.Eval(raw, getEnv)
	if err != nil {
		return "", errors.Wrapf(err, "could not expand '%s'", raw)
	}

	return expanded, nil
}

// decodeScalar reads a scalar node as a string, expands the environment
// variables it references and converts the result with parse.
func decodeScalar[T any](unmarshal func(any) error, parse func(string) (T, error)) (T, error) {
	var (
		raw  string
		zero T
	)

	if err := unmarshal(&raw); err != nil {
		return zero, errors.WithStack(err)
	}

	expanded, err := expand(raw)
	if err != nil {
		return zero, errors.WithStack(err)
	}

	value, err := parse(expanded)
	if err != nil {
		return zero, errors.Wrapf(err, "could not parse '%s'", expanded)
	}

	return value, nil
}

type InterpolatedString string

// UnmarshalYAML implements yaml.InterfaceUnmarshaler.
func (is *InterpolatedString) UnmarshalYAML(unmarshal func(any) error) error {
	value, err := decodeScalar(unmarshal, func(s string) (string, error) { return s, nil })
	if err != nil {
		return errors.WithStack(err)
	}

	*is = InterpolatedString(value)

	return nil
}

type InterpolatedInt int

func (ii *InterpolatedInt) UnmarshalYAML(unmarshal func(any) error) error {
	value, err := decodeScalar(unmarshal, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 32) })
	if err != nil {
		return errors.WithStack(err)
	}

	*ii = InterpolatedInt(value)

	return nil
}

type InterpolatedFloat float64

func (ifl *InterpolatedFloat) UnmarshalYAML(unmarshal func(any) error) error {
	value, err := decodeScalar(unmarshal, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
	if err != nil {
		return errors.WithStack(err)
	}

	*ifl = InterpolatedFloat(value)

	return nil
}

type InterpolatedBool bool

func (ib *InterpolatedBool) UnmarshalYAML(unmarshal func(any) error) error {
	value, err := decodeScalar(unmarshal, strconv.ParseBool)
	if err != nil {
		return errors.WithStack(err)
	}

	*ib = InterpolatedBool(value)

	return nil
}

// InterpolatedDuration accepts either a Go duration ("24h") or a number of
// nanoseconds.
type InterpolatedDuration time.Duration

func NewInterpolatedDuration(d time.Duration) *InterpolatedDuration {
	id := InterpolatedDuration(d)
	return &id
}

func (id *InterpolatedDuration) UnmarshalYAML(unmarshal func(any) error) error {
	value, err := decodeScalar(unmarshal, parseDuration)
	if err != nil {
		return errors.WithStack(err)
	}

	*id = InterpolatedDuration(value)

	return nil
}

func (id *InterpolatedDuration) MarshalYAML() (any, error) {
	return time.Duration(*id).String(), nil
}

func parseDuration(s string) (time.Duration, error) {
	if duration, err := time.ParseDuration(s); err == nil {
		return duration, nil
	}

	nanoseconds, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid duration '%s'", s)
	}

	return time.Duration(nanoseconds), nil
}

type InterpolatedStringSlice []string

func (iss *InterpolatedStringSlice) UnmarshalYAML(unmarshal func(any) error) error {
	var values []string

	if err := unmarshal(&values); err != nil {
		return errors.WithStack(err)
	}

	for idx := range values {
		expanded, err := expand(values[idx])
		if err != nil {
			return errors.WithStack(err)
		}

		values[idx] = expanded
	}

	*iss = values

	return nil
}

// InterpolatedMap holds free-form store options. Every string found in
// the tree, including inside nested maps and lists, is expanded.
type InterpolatedMap struct {
	Data map[string]any
}

func (im *InterpolatedMap) UnmarshalYAML(unmarshal func(any) error) error {
	var data map[string]any

	if err := unmarshal(&data); err != nil {
		return errors.WithStack(err)
	}

	if err := expandTree(data); err != nil {
		return errors.WithStack(err)
	}

	im.Data = data

	return nil
}

func (im *InterpolatedMap) MarshalYAML() (any, error) {
	return im.Data, nil
}

func expandTree(node any) error {
	switch typ := node.(type) {
	case map[string]any:
		for key, value := range typ {
			expanded, err := expandValue(value)
			if err != nil {
				return errors.Wrapf(err, "key '%s'", key)
			}

			typ[key] = expanded
		}

	case []any:
		for idx, value := range typ {
			expanded, err := expandValue(value)
			if err != nil {
				return errors.Wrapf(err, "index %d", idx)
			}

			typ[idx] = expanded
		}
	}

	return nil
}

func expandValue(value any) (any, error) {
	if str, ok := value.(string); ok {
		expanded, err := expand(str)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return expanded, nil
	}

	if err := expandTree(value); err != nil {
		return nil, err
	}

	return value, nil
}

var (
	_ yaml.InterfaceUnmarshaler = new(InterpolatedString)
	_ yaml.InterfaceUnmarshaler = new(InterpolatedInt)
	_ yaml.InterfaceUnmarshaler = new(InterpolatedFloat)
	_ yaml.InterfaceUnmarshaler = new(InterpolatedBool)
	_ yaml.InterfaceUnmarshaler = new(InterpolatedDuration)
	_ yaml.InterfaceMarshaler   = new(InterpolatedDuration)
	_ yaml.InterfaceUnmarshaler = new(InterpolatedStringSlice)
	_ yaml.InterfaceUnmarshaler = new(InterpolatedMap)
	_ yaml.InterfaceMarshaler   = new(InterpolatedMap)
)
