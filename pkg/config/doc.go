/*
Package config manages configuration parsing and validation for csvpatch.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |           |           |
	+-----+-----+ +---+----+ +----+----+
	|   JSON    | |  YAML  | |   HCL   |
	|  Parser   | | Parser | | Parser  |
	+-----------+ +--------+ +---------+

🎯 Purpose:
- Manages configuration loading and parsing
- Validates configuration values
- Provides type-safe config access
- Supports multiple config formats

🔄 Flow:
1. Reads configuration from file
2. Parses format-specific syntax
3. Validates values and fills in defaults
4. Hands the assembled Rule to the pipeline

⚡ Key Responsibilities:
- Configuration parsing
- Schema validation
- Default value management
- Type safety
- Format abstraction

🤝 Interfaces:
- Parser: Format-specific parsing
- Config: Type-safe config access
- Rule: The replacement rule consumed by the pipeline

📝 Design Philosophy:
The config package is the source of truth for a run. It:
- Keeps the file schema close to the shape users write
- Separates the file schema from the Rule the pipeline consumes
- Ensures unknown fields are rejected in every format
- Makes configuration errors clear and actionable

🔍 Example:

	cfg, err := config.Load(ctx, "config.json")
	if err != nil {
		return err
	}

	rule := cfg.Rule()
	fmt.Printf("replacing %q with %q in field %q\n",
		rule.SearchValue, rule.ReplaceValue, rule.TargetFieldName)
*/
package config
