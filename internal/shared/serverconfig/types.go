package serverconfig

type Config struct {
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
	MySQL        MySQLConfig        `yaml:"mysql" mapstructure:"mysql"`
	MongoDB      MongoDBConfig      `yaml:"mongodb" mapstructure:"mongodb"`
	HTTPServer   HTTPServerConfig   `yaml:"httpserver" mapstructure:"httpserver"`
	BattleServer BattleServerConfig `yaml:"battleserver" mapstructure:"battleserver"`
	Storage      StorageConfig      `yaml:"storage" mapstructure:"storage"`
	Raid         RaidConfig         `yaml:"raid" mapstructure:"raid"`
	JWTSecret    string             `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"`
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
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
	// SlowMS 慢查询阈值（毫秒）
	SlowMS int `yaml:"slow_ms" mapstructure:"slow_ms"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// NeedSecret 为 true 时 ws 帧走 AES 加密
	NeedSecret bool `yaml:"need_secret" mapstructure:"need_secret"`
}

type BattleServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// StorageConfig.Driver: memory | persistent
type StorageConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
}

type RaidConfig struct {
	GridSize        int `yaml:"grid_size" mapstructure:"grid_size"`
	DeploySeconds   int `yaml:"deploy_seconds" mapstructure:"deploy_seconds"`
	MaxTicks        int `yaml:"max_ticks" mapstructure:"max_ticks"`
	HistoryLimit    int `yaml:"history_limit" mapstructure:"history_limit"`
	HousingCapacity int `yaml:"housing_capacity" mapstructure:"housing_capacity"`
	AskTimeoutMS    int `yaml:"ask_timeout_ms" mapstructure:"ask_timeout_ms"`
	CountdownPollMS int `yaml:"countdown_poll_ms" mapstructure:"countdown_poll_ms"`
	SnowflakeNodeID int `yaml:"snowflake_node_id" mapstructure:"snowflake_node_id"`
}
