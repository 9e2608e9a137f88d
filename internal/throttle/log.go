package throttle

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "throttle")
