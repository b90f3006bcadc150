package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		log.Fatal(err)
	}
}
