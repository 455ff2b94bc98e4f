package main

import (
	"log"
	"os"

	"github.com/holyholical/still/models"
	"github.com/holyholical/still/web"

	"github.com/rohanthewiz/logger"
)

func main() {
	logLevel := os.Getenv("STILL_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.SetLogLevel(logLevel)

	dataDir := os.Getenv("STILL_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	if err := models.InitDB(dataDir); err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer models.CloseDB()

	if err := models.InitJWT(); err != nil {
		log.Fatal("Failed to initialize JWT: ", err)
	}

	addr := os.Getenv("STILL_ADDR")
	if addr == "" {
		addr = ":8000"
	}

	srv := web.NewServer(addr)
	log.Fatal(web.Run(srv, addr))
}
