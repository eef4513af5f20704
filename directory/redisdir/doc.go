// Package redisdir implements directory.Directory on Redis.
//
// # Key layout
//
//	<prefix>:user:<id>      hash {id, email, name, image, role, password_hash, created_at}
//	<prefix>:email:<email>  string -> id
//
// Creation and deletion run as Lua scripts so the user hash and its email
// index change together.
package redisdir
