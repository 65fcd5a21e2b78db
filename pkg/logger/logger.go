package logger

import (
	"fmt"
	"log"
	"os"
)

var std = log.New(os.Stdout, "", log.LstdFlags)

// Init initializes the plain logger (used before the structured logger is up)
func Init() {
	std.SetOutput(os.Stdout)
}

// Info logs a printf-style info message
func Info(format string, args ...interface{}) {
	std.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Error logs a printf-style error message
func Error(format string, args ...interface{}) {
	std.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}
