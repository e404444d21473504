// Package queue defines the print queue descriptors received from the
// directory service, the driver catalog entries they are matched against,
// and the install requests handed to the spooler.
package queue
