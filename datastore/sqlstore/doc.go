// Package sqlstore implements datastore.DataStore on SQLite through database/sql.
//
// Named queries are resolved to SQL by a ScriptProvider. DefaultScripts covers the
// four operations the registry and the CLI need; WithScripts swaps in another
// dialect or schema without touching the store.
package sqlstore
