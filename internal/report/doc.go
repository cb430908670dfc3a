// Package report renders search results and component details as
// markdown for tool responses.
package report
