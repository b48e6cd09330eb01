package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/fatih/color"

	"github.com/sid-acryl/lookml-lineage/pkg/logger"
)

var (
	errorPrinter   = color.New(color.FgRed, color.Bold)
	successPrinter = color.New(color.FgGreen)
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func makeLogger(isDebug bool) logger.Logger {
	return logger.New(isDebug)
}

func RecoverFromPanic() {
	if err := recover(); err != nil {
		log.Println("=======================================")
		log.Println("lookml-lineage encountered an unexpected error, please report the issue.")
		log.Println(err)
		log.Println("=======================================")
		b := bufio.NewScanner(bytes.NewBuffer(debug.Stack()))
		for b.Scan() {
			log.Println(b.Text())
		}
		os.Exit(1)
	}
}

func printErrorJSON(err error) {
	response := ErrorResponse{Error: "something went wrong"}
	if err != nil {
		response.Error = err.Error()
	}

	js, marshalErr := json.Marshal(response)
	if marshalErr != nil {
		fmt.Println(marshalErr)
		return
	}

	fmt.Println(string(js))
}

func printError(err error, output string, message string) {
	if output == "json" {
		printErrorJSON(err)
	} else {
		errorPrinter.Printf("%s: %v\n", message, err)
	}
}
