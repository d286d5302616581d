package adapters

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// AdapterConstructor возвращает новый, еще не подключенный адаптер
type AdapterConstructor func() Adapter

// typeAliases - принятые в DSN/драйверах имена, приводимые к типу адаптера
var typeAliases = map[string]string{
	"postgresql": "postgres",
	"pgx":        "postgres",
	"sqlite3":    "sqlite",
	"sqlserver":  "mssql",
	"mariadb":    "mysql",
}

// ResolveType приводит имя СУБД из конфигурации к зарегистрированному типу:
// регистр не важен, известные синонимы заменяются.
func ResolveType(dbType string) string {
	t := strings.ToLower(strings.TrimSpace(dbType))
	if alias, ok := typeAliases[t]; ok {
		return alias
	}
	return t
}

// Registry хранит конструкторы адаптеров выходной БД
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]AdapterConstructor
}

// NewRegistry создает пустой реестр
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]AdapterConstructor)}
}

// Register добавляет конструктор; повторная регистрация типа - ошибка программы
func (r *Registry) Register(dbType string, constructor AdapterConstructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.constructors[dbType]; dup {
		panic(fmt.Sprintf("adapters: type %q registered twice", dbType))
	}
	r.constructors[dbType] = constructor
}

// IsRegistered проверяет тип (с учетом синонимов)
func (r *Registry) IsRegistered(dbType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.constructors[ResolveType(dbType)]
	return ok
}

// Types - зарегистрированные типы по алфавиту
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.constructors))
	for t := range r.constructors {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Open создает адаптер и подключается. Connect проверяет соединение (ping),
// поэтому возвращенный адаптер готов к WriteTable.
func (r *Registry) Open(ctx context.Context, cfg Config) (Adapter, error) {
	cfg.Type = ResolveType(cfg.Type)

	r.mu.RLock()
	constructor, ok := r.constructors[cfg.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown database type: %s (available types: %s)",
			cfg.Type, strings.Join(r.Types(), ", "))
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%s: dsn is required", cfg.Type)
	}

	adapter := constructor()
	if err := adapter.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Type, err)
	}
	return adapter, nil
}

var defaultRegistry = NewRegistry()

// Register регистрирует адаптер; вызывается из init() пакетов СУБД
func Register(dbType string, constructor AdapterConstructor) {
	defaultRegistry.Register(dbType, constructor)
}

// IsRegistered проверяет регистрацию типа
func IsRegistered(dbType string) bool {
	return defaultRegistry.IsRegistered(dbType)
}

// GetRegisteredTypes возвращает зарегистрированные типы по алфавиту
func GetRegisteredTypes() []string {
	return defaultRegistry.Types()
}

// New открывает адаптер выходной БД
//
//	adapter, err := adapters.New(ctx, adapters.Config{Type: "sqlite", DSN: "file:esg.db"})
//	if err != nil {
//	    return err
//	}
//	defer adapter.Close(ctx)
func New(ctx context.Context, cfg Config) (Adapter, error) {
	return defaultRegistry.Open(ctx, cfg)
}
