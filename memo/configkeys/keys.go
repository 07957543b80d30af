package configkeys

const (
	delimiter = "."

	ConfigPrefix = "config"

	ConfigMemoPrefix = ConfigPrefix + delimiter + "memo"

	ConfigMemoName         = ConfigMemoPrefix + delimiter + "name"
	ConfigMemoPolicy       = ConfigMemoPrefix + delimiter + "policy"
	ConfigMemoSingleflight = ConfigMemoPrefix + delimiter + "singleflight"

	ConfigMemoStorePrefix     = ConfigMemoPrefix + delimiter + "store"
	ConfigMemoStoreMaxEntries = ConfigMemoStorePrefix + delimiter + "max_entries"
	ConfigMemoStoreNumShards  = ConfigMemoStorePrefix + delimiter + "num_shards"
)
