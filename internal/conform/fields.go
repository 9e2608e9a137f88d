package conform

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Patterns shared by the validators and by assertion checkers.
var (
	// HashPattern matches uppercase SHA-1 hashes and key fingerprints.
	HashPattern = regexp.MustCompile(`^[A-Z0-9]{40}$`)
	// ChangePattern matches a "+" or "-" membership change.
	ChangePattern = regexp.MustCompile(`^(\+|-)[A-Z0-9]{40}$`)
	// CoinPattern matches ISSUER-AMENDMENT-INDEX with an optional
	// :SOURCE-TRANSACTION suffix.
	CoinPattern = regexp.MustCompile(`^[A-Z0-9]{40}-\d+-\d+(:[A-Z0-9]{40}-\d+)?$`)
)

// pemDelimiter marks armored (PGP/PEM) blocks.
const pemDelimiter = "-----"

// field looks a key up by exact name. Keys are compared literally so callers
// never have to worry about gjson path syntax. When a key is repeated the last
// occurrence wins, as it does for JSON.parse and encoding/json.
func field(obj gjson.Result, key string) (gjson.Result, bool) {
	var (
		found gjson.Result
		ok    bool
	)

	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
		}

		return true
	})

	return found, ok
}

// exists mirrors a "value is set" check: present and not null.
func exists(obj gjson.Result, key string) bool {
	v, ok := field(obj, key)
	return ok && v.Type != gjson.Null
}

func requireObject(obj gjson.Result, path string) error {
	if !obj.IsObject() {
		return failf(path, "expected a JSON object, got %s", describe(obj))
	}

	return nil
}

// requireKeys checks that every key is present, null allowed.
func requireKeys(obj gjson.Result, path string, keys ...string) error {
	for _, key := range keys {
		if _, ok := field(obj, key); !ok {
			return failf(at(path, key), "missing property")
		}
	}

	return nil
}

// requireValues checks that every key is present and not null.
func requireValues(obj gjson.Result, path string, keys ...string) error {
	for _, key := range keys {
		v, ok := field(obj, key)
		if !ok {
			return failf(at(path, key), "missing property")
		}

		if v.Type == gjson.Null {
			return failf(at(path, key), "must not be null")
		}
	}

	return nil
}

// forbidKeys checks that no key is present at all.
func forbidKeys(obj gjson.Result, path string, keys ...string) error {
	for _, key := range keys {
		if v, ok := field(obj, key); ok {
			return failf(at(path, key), "unexpected property (value %s)", describe(v))
		}
	}

	return nil
}

// forbidValues checks that every key is absent or null.
func forbidValues(obj gjson.Result, path string, keys ...string) error {
	for _, key := range keys {
		if exists(obj, key) {
			v, _ := field(obj, key)
			return failf(at(path, key), "must not exist, got %s", describe(v))
		}
	}

	return nil
}

func atLeast(obj gjson.Result, path, key string, min float64) error {
	v, _ := field(obj, key)
	if v.Type != gjson.Number {
		return failf(at(path, key), "expected a number, got %s", describe(v))
	}

	if v.Float() < min {
		return failf(at(path, key), "expected a number >= %v, got %v", min, v.Float())
	}

	return nil
}

func above(obj gjson.Result, path, key string, min float64) error {
	v, _ := field(obj, key)
	if v.Type != gjson.Number {
		return failf(at(path, key), "expected a number, got %s", describe(v))
	}

	if v.Float() <= min {
		return failf(at(path, key), "expected a number > %v, got %v", min, v.Float())
	}

	return nil
}

func nonEmptyString(obj gjson.Result, path, key string) error {
	v, _ := field(obj, key)
	if v.Type != gjson.String {
		return failf(at(path, key), "expected a string, got %s", describe(v))
	}

	if v.Str == "" {
		return failf(at(path, key), "must not be empty")
	}

	return nil
}

func matchString(obj gjson.Result, path, key string, re *regexp.Regexp) error {
	v, _ := field(obj, key)
	if v.Type != gjson.String {
		return failf(at(path, key), "expected a string, got %s", describe(v))
	}

	if !re.MatchString(v.Str) {
		return failf(at(path, key), "%q does not match %s", v.Str, re)
	}

	return nil
}

func equalString(obj gjson.Result, path, key, want string) error {
	v, ok := field(obj, key)
	if !ok {
		return failf(at(path, key), "missing property")
	}

	if v.Type != gjson.String || v.Str != want {
		return failf(at(path, key), "expected %q, got %s", want, describe(v))
	}

	return nil
}

// eachMatch checks that key holds an array whose entries all match re.
func eachMatch(obj gjson.Result, path, key string, re *regexp.Regexp) error {
	v, _ := field(obj, key)
	if !v.IsArray() {
		return failf(at(path, key), "expected an array, got %s", describe(v))
	}

	for i, entry := range v.Array() {
		if entry.Type != gjson.String || !re.MatchString(entry.Str) {
			return failf(at(path, key), "entry %d (%s) does not match %s", i, describe(entry), re)
		}
	}

	return nil
}

// armored reports whether a raw document carries PEM/PGP delimiters.
func armored(v gjson.Result) bool {
	return strings.Contains(v.String(), pemDelimiter)
}

// describe renders a value for failure messages.
func describe(v gjson.Result) string {
	if !v.Exists() {
		return "nothing"
	}

	raw := v.Raw
	if len(raw) > 80 {
		raw = raw[:77] + "..."
	}

	return raw
}
