// Command authsession manages a superuser session from the command line.
//
//	authsession -u http://127.0.0.1:8090 -s ~/.authsession login -i admin@example.com -p secret
//	authsession -u http://127.0.0.1:8090 -s ~/.authsession file-token -c pbc_invoices -d
package main
