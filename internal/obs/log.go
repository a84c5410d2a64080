package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// service tags every log line so aggregated streams from the CMS and
// its sidecars stay separable.
const service = "birlik-cms"

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the shared line logger. Output is one JSON document
// per line on stdout; callers format through LogRequest rather than
// printing raw strings.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// LogRequest emits a structured JSON log line. The service tag is
// always stamped; ts and level are filled in when the caller did not
// set them, so ad-hoc call sites still produce well-formed entries.
func LogRequest(entry map[string]any) {
	line := make(map[string]any, len(entry)+3)
	for k, v := range entry {
		line[k] = v
	}
	line["service"] = service
	if _, ok := line["ts"]; !ok {
		line["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if _, ok := line["level"]; !ok {
		line["level"] = "info"
	}
	data, err := json.Marshal(line)
	if err != nil {
		Logger().Println(`{"service":"` + service + `","level":"error","msg":"log marshal failed"}`)
		return
	}
	Logger().Println(string(data))
}
