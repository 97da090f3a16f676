// Package services contains server-side business logic: user bootstrap
// and account removal, password verification and rotation, encrypted file
// storage, and the Google Drive link.
package services
