// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing, expression
// evaluation and the HCL-to-model translation of patch definitions.
//
// A patch file looks like:
//
//	patch "modal_tabs" {
//	  description = "Adds the agency tabs"
//	  target      = "components/shoots/schedule-shoot-modal.tsx"
//
//	  rule "state" {
//	    pattern = chomp(<<-EOT
//	      const \[loading, setLoading\] = useState\(true\);
//	    EOT
//	    )
//	    replace = "..."
//	  }
//	}
//
// Heredocs do not interpret backslash escapes, which keeps regular
// expressions readable; "$${" and "%%{" escape template sequences.
package hcl
