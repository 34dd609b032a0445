package types

// ContextKey - тип ключей для значений в контексте команд
type ContextKey string

// ClientAppKey - ключ, под которым в контексте лежит *client.App
const ClientAppKey ContextKey = "clientApp"
