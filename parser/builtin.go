package parser

import (
	"math/rand"
	"os"
	"time"

	"github.com/teranos/pytestgen/errors"
)

const randomStringAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Builtins returns the default project function table. Projects get these
// even without any project-level configuration.
func Builtins() map[string]Function {
	return map[string]Function{
		"environ":           environ,
		"get_timestamp":     getTimestamp,
		"gen_random_string": genRandomString,
	}
}

// environ reads an environment variable, e.g. ${environ(USERNAME)}.
func environ(args ...interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, errors.Newf("environ expects 1 argument, got %d", len(args))
	}
	name, ok := args[0].(string)
	if !ok {
		return nil, errors.Newf("environ expects a string argument, got %T", args[0])
	}
	return os.Getenv(name), nil
}

// getTimestamp returns the current unix timestamp in milliseconds.
func getTimestamp(args ...interface{}) (interface{}, error) {
	if len(args) != 0 {
		return nil, errors.Newf("get_timestamp expects no arguments, got %d", len(args))
	}
	return time.Now().UnixMilli(), nil
}

// genRandomString generates a random alphanumeric string of the given length.
func genRandomString(args ...interface{}) (interface{}, error) {
	length := 8
	if len(args) > 0 {
		n, ok := args[0].(int)
		if !ok {
			return nil, errors.Newf("gen_random_string expects an int argument, got %T", args[0])
		}
		length = n
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = randomStringAlphabet[rand.Intn(len(randomStringAlphabet))]
	}
	return string(buf), nil
}
