package pwlt

import (
	"log"
	"os"
)

const (
	LOG_ERR = iota + 1
	LOG_INFO
	LOG_DEBUG
	LOG_SPAM
)

var (
	logErr   *log.Logger
	logInfo  *log.Logger
	logDebug *log.Logger
	logSpam  *log.Logger
	maxLvl   int
)

func InitLoggers(logLvl int) {
	maxLvl = logLvl
	logErr = log.New(os.Stdout, "ERROR ", log.Ldate|log.Ltime|log.Lshortfile)
	logInfo = log.New(os.Stdout, "INFO ", log.Ldate|log.Ltime|log.Lshortfile)
	logDebug = log.New(os.Stdout, "DEBUG ", log.Ldate|log.Ltime|log.Lshortfile)
	logSpam = log.New(os.Stdout, "SPAM ", log.Ldate|log.Ltime|log.Lshortfile)
}

func Log(msgLvl int, printF string, args ...interface{}) {
	if msgLvl > maxLvl || logErr == nil {
		return
	}
	switch msgLvl {
	case LOG_ERR:
		logErr.Printf(printF, args...)
	case LOG_INFO:
		logInfo.Printf(printF, args...)
	case LOG_DEBUG:
		logDebug.Printf(printF, args...)
	case LOG_SPAM:
		logSpam.Printf(printF, args...)
	}
}
