package conform

import "github.com/tidwall/gjson"

var transactionFields = []string{
	"version",
	"currency",
	"sender",
	"number",
	"recipient",
	"coins",
	"comment",
}

// IsTransaction checks a transaction body. The legacy "type" and "amounts"
// fields must be gone.
func IsTransaction(json gjson.Result) error {
	if err := requireObject(json, ""); err != nil {
		return err
	}

	if err := requireValues(json, "", transactionFields...); err != nil {
		return err
	}

	// Numbers
	if err := atLeast(json, "", "version", 1); err != nil {
		return err
	}

	if err := atLeast(json, "", "number", 0); err != nil {
		return err
	}

	// Strings
	if err := nonEmptyString(json, "", "currency"); err != nil {
		return err
	}

	if err := forbidValues(json, "", "type", "amounts"); err != nil {
		return err
	}

	// Arrays
	if err := eachMatch(json, "", "coins", CoinPattern); err != nil {
		return err
	}

	// Conditionals
	return previousHash(json)
}

// IsSignedTransaction checks {signature, raw, transaction}.
func IsSignedTransaction(json gjson.Result) error {
	return ExpectedSignedTransaction(nil)(json)
}
