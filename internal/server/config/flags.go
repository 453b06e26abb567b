package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/billsync/internal/flagx"
)

// parseFlags overlays server Config fields with command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address, empty disables the endpoint
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-l float    allowed requests per second per peer, 0 disables limiting
//	-b int      rate limiter burst
//
// Notes:
//   - args are filtered to the flags recognized here using flagx.FilterArgs,
//     avoiding collisions with other components.
//   - Token validity is accepted as an integer in minutes.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-m", "-d", "-s", "-t", "-l", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.EndpointAddrMetrics, "m", config.EndpointAddrMetrics, "address and port to expose metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.Float64Var(&config.RateLimit, "l", config.RateLimit, "requests per second per peer")
	fs.IntVar(&config.RateBurst, "b", config.RateBurst, "rate limiter burst")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	return nil
}
