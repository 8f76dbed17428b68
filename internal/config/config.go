package config

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"
)

const (
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// NetworkKey is the Bitcoin network the scanned extended keys belong to, one of mainnet, testnet, regtest
	NetworkKey = "NETWORK"
	// ExplorerEndpointKey is the base URL of the Esplora HTTP API used as ledger source
	ExplorerEndpointKey = "EXPLORER_ENDPOINT"
	// ExplorerRequestTimeoutKey is the timeout in seconds applied to every single explorer request
	ExplorerRequestTimeoutKey = "EXPLORER_REQUEST_TIMEOUT"
	// ExplorerMaxRetriesKey is the number of extra attempts granted to a failing ledger query before a scan aborts
	ExplorerMaxRetriesKey = "EXPLORER_MAX_RETRIES"
	// GapLimitKey is the default number of consecutive unused addresses that concludes a scan
	GapLimitKey = "GAP_LIMIT"
	// ScanWindowSizeKey is the number of ledger queries kept in flight concurrently during a scan
	ScanWindowSizeKey = "SCAN_WINDOW_SIZE"
)

var vip *viper.Viper

var supportedNetworks = map[string]*chaincfg.Params{
	"mainnet": &chaincfg.MainNetParams,
	"testnet": &chaincfg.TestNet3Params,
	"regtest": &chaincfg.RegressionNetParams,
}

// InitConfig loads the configuration from the environment, applying
// defaults for everything left unset.
func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("XPUBSCAN")
	vip.AutomaticEnv()

	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(NetworkKey, "mainnet")
	vip.SetDefault(ExplorerEndpointKey, "https://blockstream.info/api")
	vip.SetDefault(ExplorerRequestTimeoutKey, 15)
	vip.SetDefault(ExplorerMaxRetriesKey, 2)
	vip.SetDefault(GapLimitKey, 20)
	vip.SetDefault(ScanWindowSizeKey, 1)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Second
}

// GetNetwork returns the chain params matching the configured network.
func GetNetwork() *chaincfg.Params {
	return supportedNetworks[GetString(NetworkKey)]
}

// NetworkFromName returns the chain params matching the given network
// name, used to let CLI flags override the configured network.
func NetworkFromName(name string) (*chaincfg.Params, error) {
	net, ok := supportedNetworks[name]
	if !ok {
		return nil, fmt.Errorf("network must be one of mainnet, testnet, regtest, got %s", name)
	}
	return net, nil
}

func validate() error {
	network := GetString(NetworkKey)
	if _, ok := supportedNetworks[network]; !ok {
		return fmt.Errorf("network must be one of mainnet, testnet, regtest, got %s", network)
	}

	if gapLimit := GetInt(GapLimitKey); gapLimit < 1 {
		return fmt.Errorf("gap limit must be a positive integer, got %d", gapLimit)
	}

	if timeout := GetInt(ExplorerRequestTimeoutKey); timeout < 1 {
		return fmt.Errorf("explorer request timeout must be a positive number of seconds, got %d", timeout)
	}

	if retries := GetInt(ExplorerMaxRetriesKey); retries < 0 {
		return fmt.Errorf("explorer max retries must not be negative, got %d", retries)
	}

	if window := GetInt(ScanWindowSizeKey); window < 1 {
		return fmt.Errorf("scan window size must be a positive integer, got %d", window)
	}

	return nil
}
