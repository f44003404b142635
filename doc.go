// Package main provides the entry point for the StudyHive service. It runs
// a web server using the Fiber framework exposing a JSON API for study
// groups: membership, likes, ratings, a shared per-group video session and a
// question/answer forum. The application uses gorm for data persistence.
package main
