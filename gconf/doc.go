/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration object stored under its package
name. The configuration is loaded from the genesis file, from the
`conf.<package>` section, validated and saved in the database. Extensions
read it back using Load.

*/
package gconf
