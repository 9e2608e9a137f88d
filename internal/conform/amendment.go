package conform

import "github.com/tidwall/gjson"

var amendmentFields = []string{
	"version",
	"currency",
	"generated",
	"number",
	"votersRoot",
	"votersCount",
	"votersChanges",
	"membersRoot",
	"membersCount",
	"membersChanges",
	"raw",
}

// IsAmendment checks an amendment. Clauses are evaluated in a fixed order:
// mandatory fields, numbers, strings, array entries, then conditional fields.
func IsAmendment(json gjson.Result) error {
	if err := requireObject(json, ""); err != nil {
		return err
	}

	if err := requireValues(json, "", amendmentFields...); err != nil {
		return err
	}

	// Numbers
	if err := atLeast(json, "", "version", 1); err != nil {
		return err
	}

	for _, key := range []string{"generated", "number", "membersCount", "votersCount"} {
		if err := atLeast(json, "", key, 0); err != nil {
			return err
		}
	}

	// Strings
	if err := nonEmptyString(json, "", "currency"); err != nil {
		return err
	}

	if err := merkleRoot(json, "membersRoot", "membersCount"); err != nil {
		return err
	}

	if err := merkleRoot(json, "votersRoot", "votersCount"); err != nil {
		return err
	}

	// Arrays
	if err := eachMatch(json, "", "membersChanges", ChangePattern); err != nil {
		return err
	}

	if err := eachMatch(json, "", "votersChanges", ChangePattern); err != nil {
		return err
	}

	// Conditionals
	if err := previousHash(json); err != nil {
		return err
	}

	return dividend(json)
}

// merkleRoot requires a hash root for a non-empty tree and "" for an empty one.
func merkleRoot(json gjson.Result, rootKey, countKey string) error {
	count, _ := field(json, countKey)
	if count.Float() > 0 {
		return matchString(json, "", rootKey, HashPattern)
	}

	root, _ := field(json, rootKey)
	if root.Type != gjson.String || root.Str != "" {
		return failf(rootKey, "expected \"\" while %s is 0, got %s", countKey, describe(root))
	}

	return nil
}

// previousHash is mandatory past the first link of a chain. On the first link
// a non-empty value must still be a well-formed hash.
func previousHash(json gjson.Result) error {
	number, _ := field(json, "number")
	if number.Float() > 0 {
		if !exists(json, "previousHash") {
			return failf("previousHash", "required when number > 0")
		}

		return matchString(json, "", "previousHash", HashPattern)
	}

	v, ok := field(json, "previousHash")
	if !ok || v.Type == gjson.Null || (v.Type == gjson.String && v.Str == "") {
		return nil
	}

	return matchString(json, "", "previousHash", HashPattern)
}

// dividend checks the issuance block that comes with a dividend.
func dividend(json gjson.Result) error {
	if !exists(json, "dividend") {
		return nil
	}

	if err := requireValues(json, "", "coinBase", "coinList"); err != nil {
		return err
	}

	if err := above(json, "", "dividend", 0); err != nil {
		return err
	}

	if err := atLeast(json, "", "coinBase", 0); err != nil {
		return err
	}

	coins, _ := field(json, "coinList")
	if !coins.IsArray() {
		return failf("coinList", "expected an array, got %s", describe(coins))
	}

	if len(coins.Array()) < 1 {
		return failf("coinList", "expected at least one entry")
	}

	return nil
}

// IsSignedAmendment checks {signature, amendment} with a valid amendment.
func IsSignedAmendment(json gjson.Result) error {
	return ExpectedSignedAmendment(nil)(json)
}
