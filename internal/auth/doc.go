// package auth signs users in through an identity [Provider] and keeps the
// session in the database so separate CLI invocations share a login.
//
// Listeners registered with [Service.OnAuthStateChange] run after every sign-in,
// sign-out and restore, with a nil user on sign-out.
package auth
