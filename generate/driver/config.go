package driver

import "time"

type Config struct {

	//Optional. It can be different for each driver.
	Endpoint string
	// download the checkpoint when the runtime cache misses (ollama)
	Pull bool
	// how long the runtime keeps the model in memory (ollama)
	KeepAlive time.Duration
}
