package attest

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "attest")
