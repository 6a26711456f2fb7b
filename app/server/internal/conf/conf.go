package conf

type Bootstrap struct {
	Server   *Server   `json:"server"`
	Data     *Data     `json:"data"`
	Analyzer *Analyzer `json:"analyzer"`
}

type Server struct {
	Http *HTTP `json:"http"`
	Grpc *GRPC `json:"grpc"`
	Cors *CORS `json:"cors"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

type GRPC struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

// CORS 允许的来源，为空时允许全部
type CORS struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

type Data struct {
	Database *Database `json:"database"`
}

// Database driver 为 memory / postgres / mongo
type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
	Name   string `json:"name"`
}

type Analyzer struct {
	Llm         *LLM         `json:"llm"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Engine      *Engine      `json:"engine"`
}

type LLM struct {
	Provider string `json:"provider"`
	BaseUrl  string `json:"base_url"`
	ApiKey   string `json:"api_key"`
	Model    string `json:"model"`
	Timeout  string `json:"timeout"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type Engine struct {
	ParallelFacets bool `json:"parallel_facets"`
}
