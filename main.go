package main

import (
	"log"
)

func main() {
	app := &App{
		config: Config{
			Title:  "Test App",
			Width:  800,
			Height: 600,
		},
	}

	err := app.Run()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
}
