package database

// Config 数据库配置
type Config struct {
	Host         string `conf:"host,数据库主机地址"`
	Port         string `conf:"port,数据库端口"`
	User         string `conf:"user,数据库用户名"`
	Password     string `conf:"password,数据库密码"`
	DBName       string `conf:"dbname,数据库名称"`
	SSLMode      string `conf:"sslmode,SSL模式"`
	MaxOpenConns int    `conf:"max_open_conns,最大连接数"`
	MaxIdleConns int    `conf:"max_idle_conns,最大空闲连接数"`
}

// DefaultConfig 默认数据库配置
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         "5432",
		User:         "dexbot",
		Password:     "",
		DBName:       "dexbot",
		SSLMode:      "disable",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	}
}
