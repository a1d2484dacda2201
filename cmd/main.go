package main

import (
	"os"

	"github.com/Pradhyumna23/Nourish-AI/config"
	"github.com/Pradhyumna23/Nourish-AI/routes"
	"github.com/Pradhyumna23/Nourish-AI/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter()
	r.Run(":" + port)
}
