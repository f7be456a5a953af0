package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token signing secret key
//	-t int      token validity, minutes
//	-w int      argon2id time cost (work factor)
//	-m int      argon2id memory, KiB
//	-l int      argon2id parallelism
//	-x int      maximum accepted password length
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The token validity flag is accepted as an integer in minutes and then
//     converted to a time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-w", "-m", "-l", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")
	hashTimeCost := fs.Uint("w", uint(config.HashTimeCost), "argon2id time cost")
	hashMemoryKiB := fs.Uint("m", uint(config.HashMemoryKiB), "argon2id memory (KiB)")
	hashParallelism := fs.Uint("l", uint(config.HashParallelism), "argon2id parallelism")

	fs.IntVar(&config.MaxPasswordLength, "x", config.MaxPasswordLength, "max password length")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Minute
	config.HashTimeCost = uint32(*hashTimeCost)
	config.HashMemoryKiB = uint32(*hashMemoryKiB)
	config.HashParallelism = uint8(*hashParallelism)
}
