package engine

// Lit mesh shader used for the creature, the terrain and the props
const meshVertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec3 aColor;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

out vec3 FragPos;
out vec3 Normal;
out vec3 Color;

void main() {
    vec4 world = model * vec4(aPos, 1.0);
    FragPos = world.xyz;
    Normal = mat3(transpose(inverse(model))) * aNormal;
    Color = aColor;
    gl_Position = projection * view * world;
}
`

const meshFragmentShaderSource = `
#version 410 core
in vec3 FragPos;
in vec3 Normal;
in vec3 Color;
out vec4 FragColor;

uniform vec3 lightDir;
uniform vec3 cameraPos;
uniform vec3 fogColor;
uniform float fogDensity;
uniform float flatShade;  // 1 draws a flat shadow color
uniform float shadowAlpha;

void main() {
    if (flatShade > 0.5) {
        FragColor = vec4(0.0, 0.0, 0.0, shadowAlpha);
        return;
    }

    vec3 n = normalize(Normal);
    float diffuse = max(dot(n, -normalize(lightDir)), 0.0);
    float hemi = 0.5 + 0.5 * n.y;
    vec3 lit = Color * (0.25 * hemi + 0.8 * diffuse);

    float dist = length(cameraPos - FragPos);
    float fog = 1.0 - exp(-fogDensity * dist);
    FragColor = vec4(mix(lit, fogColor, clamp(fog, 0.0, 1.0)), 1.0);
}
`

// Spore particles drawn as round points
const particleVertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 aPos;

uniform mat4 view;
uniform mat4 projection;
uniform float pointSize;

void main() {
    vec4 eye = view * vec4(aPos, 1.0);
    gl_Position = projection * eye;
    gl_PointSize = pointSize / max(-eye.z, 1.0);
}
`

const particleFragmentShaderSource = `
#version 410 core
out vec4 FragColor;

uniform vec3 sporeColor;

void main() {
    vec2 d = gl_PointCoord - vec2(0.5);
    float r = dot(d, d);
    if (r > 0.25) {
        discard;
    }
    FragColor = vec4(sporeColor, 1.0 - r * 4.0);
}
`

// Full-screen pass adding bloom from the bright parts of the frame
const postProcessVertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

void main() {
    gl_Position = vec4(aPos, 1.0);
    TexCoord = aTexCoord;
}
`

const postProcessFragmentShaderSource = `
#version 410 core
in vec2 TexCoord;
out vec4 FragColor;

uniform sampler2D screenTexture;
uniform vec2 resolution;
uniform float bloomIntensity;
uniform float bloomThreshold;

vec3 bright(vec2 uv) {
    vec3 c = texture(screenTexture, uv).rgb;
    float luma = dot(c, vec3(0.2126, 0.7152, 0.0722));
    return c * smoothstep(bloomThreshold, 1.0, luma);
}

void main() {
    vec3 color = texture(screenTexture, TexCoord).rgb;

    if (bloomIntensity > 0.0) {
        vec2 texel = 1.0 / resolution;
        vec3 glow = vec3(0.0);
        float total = 0.0;
        for (int x = -4; x <= 4; x++) {
            for (int y = -4; y <= 4; y++) {
                float w = exp(-float(x * x + y * y) / 8.0);
                glow += bright(TexCoord + vec2(x, y) * texel * 2.0) * w;
                total += w;
            }
        }
        color += glow / total * bloomIntensity;
    }

    FragColor = vec4(color, 1.0);
}
`
