package serverconfig

type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Arena   ArenaConfig   `yaml:"arena" mapstructure:"arena"`
	Sim     SimConfig     `yaml:"sim" mapstructure:"sim"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	MongoDB MongoDBConfig `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL   MySQLConfig   `yaml:"mysql" mapstructure:"mysql"`
	Auth    AuthConfig    `yaml:"auth" mapstructure:"auth"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// ArenaConfig 对外监听与 actor 请求超时。
type ArenaConfig struct {
	Host         string `yaml:"host" mapstructure:"host"`
	Port         int    `yaml:"port" mapstructure:"port"`
	GRPCPort     int    `yaml:"grpc_port" mapstructure:"grpc_port"`
	NeedSecret   bool   `yaml:"need_secret" mapstructure:"need_secret"`
	AskTimeoutMs int    `yaml:"ask_timeout_ms" mapstructure:"ask_timeout_ms"`
	MaxSessions  int    `yaml:"max_sessions" mapstructure:"max_sessions"`
}

// SimConfig 模拟参数。0 值表示使用内置默认值。
type SimConfig struct {
	TickIntervalMs      int     `yaml:"tick_interval_ms" mapstructure:"tick_interval_ms"`
	MapWidth            float64 `yaml:"map_width" mapstructure:"map_width"`
	MapHeight           float64 `yaml:"map_height" mapstructure:"map_height"`
	NumClusters         int     `yaml:"num_clusters" mapstructure:"num_clusters"`
	ResourcesPerCluster int     `yaml:"resources_per_cluster" mapstructure:"resources_per_cluster"`
	NodeAmount          int     `yaml:"node_amount" mapstructure:"node_amount"`
	GatherAmount        int     `yaml:"gather_amount" mapstructure:"gather_amount"`
	ReturnCredit        int     `yaml:"return_credit" mapstructure:"return_credit"`
	SpeedMultiplier     float64 `yaml:"speed_multiplier" mapstructure:"speed_multiplier"`
	DamageFactor        float64 `yaml:"damage_factor" mapstructure:"damage_factor"`
	ClimbDurationMs     int     `yaml:"climb_duration_ms" mapstructure:"climb_duration_ms"`
	DefaultProductionMs int     `yaml:"default_production_ms" mapstructure:"default_production_ms"`
	MaxQueue            int     `yaml:"max_queue" mapstructure:"max_queue"`
	StartingWood        int     `yaml:"starting_wood" mapstructure:"starting_wood"`
	StartingStone       int     `yaml:"starting_stone" mapstructure:"starting_stone"`
}

// StoreConfig 对局归档。Driver: memory / mongodb / mysql。
type StoreConfig struct {
	Driver       string `yaml:"driver" mapstructure:"driver"`
	RetryDelayMs int    `yaml:"retry_delay_ms" mapstructure:"retry_delay_ms"`
	SaveTimeoutS int    `yaml:"save_timeout_s" mapstructure:"save_timeout_s"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type AuthConfig struct {
	JWTSecret  string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	SeatTTLMin int    `yaml:"seat_ttl_min" mapstructure:"seat_ttl_min"`
	FrameKey   string `yaml:"frame_key" mapstructure:"frame_key"`
	FrameIV    string `yaml:"frame_iv" mapstructure:"frame_iv"`
}
