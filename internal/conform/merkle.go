package conform

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// IsMerkleResult checks the summary every Merkle answer carries.
func IsMerkleResult(json gjson.Result) error {
	if err := requireObject(json, ""); err != nil {
		return err
	}

	return requireKeys(json, "", "depth", "nodesCount", "leavesCount", "root")
}

// IsMerkleSimpleResult checks a summary without leaf data.
func IsMerkleSimpleResult(json gjson.Result) error {
	if err := IsMerkleResult(json); err != nil {
		return err
	}

	return forbidKeys(json, "", "leaf", "leaves")
}

// IsMerkleLeafResult checks a summary carrying exactly one leaf.
func IsMerkleLeafResult(json gjson.Result) error {
	if err := IsMerkleResult(json); err != nil {
		return err
	}

	if err := requireKeys(json, "", "leaf"); err != nil {
		return err
	}

	return forbidKeys(json, "", "leaves")
}

// IsMerkleLeavesResult checks a summary listing leaves, each with a hash and
// a value. Leaves may be served as an array or keyed by index.
func IsMerkleLeavesResult(json gjson.Result) error {
	if err := IsMerkleResult(json); err != nil {
		return err
	}

	if err := requireKeys(json, "", "leaves"); err != nil {
		return err
	}

	if err := forbidKeys(json, "", "leaf"); err != nil {
		return err
	}

	leaves, _ := field(json, "leaves")

	var err error
	i := 0
	leaves.ForEach(func(key, leaf gjson.Result) bool {
		path := at("leaves", fmt.Sprint(i))
		if key.Exists() && key.Type == gjson.String {
			path = at("leaves", key.Str)
		}
		i++

		if err = requireObject(leaf, path); err != nil {
			return false
		}

		err = requireKeys(leaf, path, "hash", "value")
		return err == nil
	})

	return err
}
