/*
Package launcher implements the native launcher of the fleetdeck bus fleet
management web application.

The project has three main source packages:
`cmd`: Main applications, tools and libraries.
`internal`: Private application and library code.
`pkg`: Library code that's ok to use by external applications
*/
package launcher
