package scoring

// categoryKeywords maps a question category to terms a relevant answer tends to mention.
var categoryKeywords = map[string][]string{
	"JavaScript Fundamentals":  {"let", "const", "var", "scope", "hoisting", "es6", "arrow function"},
	"JavaScript Advanced":      {"closure", "lexical", "scope", "function", "private", "callback", "memory"},
	"React Basics":             {"component", "virtual dom", "jsx", "state", "props", "hooks", "functional", "class"},
	"State Management":         {"redux", "context", "state", "store", "reducer", "flux", "mobx", "zustand"},
	"Performance":              {"optimization", "performance", "bundle", "lazy", "memo", "profiler", "lighthouse"},
	"System Design":            {"scalable", "microservices", "load balancer", "cache", "database", "api gateway"},
	"Distributed Systems":      {"consistency", "replication", "partition", "cap", "eventual", "quorum"},
	"Security & Auth":          {"jwt", "oauth", "authentication", "authorization", "session", "token", "https"},
	"Real-time Systems":        {"websocket", "socket", "real-time", "pub/sub", "polling", "presence"},
	"CSS & Styling":            {"flexbox", "grid", "responsive", "media query", "animation", "transform"},
	"Web Fundamentals":         {"http", "https", "status code", "request", "response", "headers"},
	"Development Tools":        {"git", "version control", "commit", "branch", "merge", "pull request"},
	"API Design":               {"rest", "endpoint", "crud", "json", "authentication", "versioning"},
	"Database":                 {"index", "query", "normalization", "transaction", "acid", "nosql"},
	"Asynchronous Programming": {"promise", "async", "await", "callback", "event loop", "microtask"},
}

var genericKeywords = []string{"javascript", "react", "node", "html", "css", "database", "api", "function", "variable"}

var codeMarkers = []string{"```", "function", "func ", "const ", "class "}

var bulletMarkers = []string{"- ", "* ", "1. "}
