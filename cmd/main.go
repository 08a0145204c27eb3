package main

import (
	"github.com/corray333/backend-labs/portal/internal/app"
	"github.com/corray333/backend-labs/portal/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
