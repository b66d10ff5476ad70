// Package soapaction builds and sends SOAP action requests to a Service's
// controlURL and parses the response or Fault into a plain string map.
package soapaction
